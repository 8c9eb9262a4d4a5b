// Package hal locates the hardware-abstraction-layer source set for a chip
// family inside a vendor HAL installation directory.
//
// A family is considered installed when its top-level header exists under
// Inc/. The per-family source allow-list is filtered against the files
// actually present under Src/, so partial installations degrade to a
// smaller source set instead of failing the build outright.
package hal

import (
	"fmt"
	"path/filepath"

	"github.com/flashtalk/fwbuild/internal/chip"
	"github.com/flashtalk/fwbuild/internal/fsutil"
)

// Set is the resolved source set for one family.
type Set struct {
	Family      chip.Family
	Available   bool
	IncludeDirs []string
	SourceFiles []string
}

// Resolve inspects the HAL installation under root for the given family.
// It never errors: an absent or empty installation yields Available=false,
// which the engine maps to syntax-check-only builds.
func Resolve(root string, family chip.Family) Set {
	set := Set{Family: family}

	header := filepath.Join(root, "Inc", fmt.Sprintf("stm32%sxx_hal.h", family))
	if !fsutil.Exists(header) {
		return set
	}

	set.IncludeDirs = []string{filepath.Join(root, "Inc")}
	for _, cmsis := range []string{
		filepath.Join(root, "CMSIS", "Include"),
		filepath.Join(root, "CMSIS", "Core", "Include"),
	} {
		if fsutil.Exists(cmsis) {
			set.IncludeDirs = append(set.IncludeDirs, cmsis)
		}
	}

	srcDir := filepath.Join(root, "Src")
	for _, name := range familySources[family] {
		path := filepath.Join(srcDir, name)
		if fsutil.Exists(path) {
			set.SourceFiles = append(set.SourceFiles, path)
		}
	}

	// A header with zero usable sources cannot produce a linkable HAL.
	set.Available = len(set.SourceFiles) > 0
	return set
}

// familySources is the per-family allow-list of HAL translation units the
// engine builds into the cached archive: core HAL, RCC, GPIO, timers, ADC,
// I2C, DMA, power, flash, EXTI, SPI, UART and the system-init unit.
var familySources = map[chip.Family][]string{
	chip.FamilyF1: {
		"stm32f1xx_hal.c", "stm32f1xx_hal_cortex.c",
		"stm32f1xx_hal_rcc.c", "stm32f1xx_hal_rcc_ex.c",
		"stm32f1xx_hal_gpio.c", "stm32f1xx_hal_gpio_ex.c",
		"stm32f1xx_hal_uart.c", "stm32f1xx_hal_usart.c",
		"stm32f1xx_hal_tim.c", "stm32f1xx_hal_tim_ex.c",
		"stm32f1xx_hal_adc.c", "stm32f1xx_hal_adc_ex.c",
		"stm32f1xx_hal_i2c.c",
		"stm32f1xx_hal_dma.c",
		"stm32f1xx_hal_pwr.c",
		"stm32f1xx_hal_flash.c", "stm32f1xx_hal_flash_ex.c",
		"stm32f1xx_hal_exti.c",
		"stm32f1xx_hal_spi.c",
		"system_stm32f1xx.c",
	},
	chip.FamilyF4: {
		"stm32f4xx_hal.c", "stm32f4xx_hal_cortex.c",
		"stm32f4xx_hal_rcc.c", "stm32f4xx_hal_rcc_ex.c",
		"stm32f4xx_hal_gpio.c",
		"stm32f4xx_hal_uart.c", "stm32f4xx_hal_usart.c",
		"stm32f4xx_hal_tim.c", "stm32f4xx_hal_tim_ex.c",
		"stm32f4xx_hal_adc.c", "stm32f4xx_hal_adc_ex.c",
		"stm32f4xx_hal_i2c.c", "stm32f4xx_hal_i2c_ex.c",
		"stm32f4xx_hal_dma.c", "stm32f4xx_hal_dma_ex.c",
		"stm32f4xx_hal_pwr.c", "stm32f4xx_hal_pwr_ex.c",
		"stm32f4xx_hal_flash.c", "stm32f4xx_hal_flash_ex.c",
		"stm32f4xx_hal_exti.c",
		"stm32f4xx_hal_spi.c",
		"system_stm32f4xx.c",
	},
	chip.FamilyF0: {
		"stm32f0xx_hal.c", "stm32f0xx_hal_cortex.c",
		"stm32f0xx_hal_rcc.c", "stm32f0xx_hal_rcc_ex.c",
		"stm32f0xx_hal_gpio.c",
		"stm32f0xx_hal_uart.c", "stm32f0xx_hal_usart.c",
		"stm32f0xx_hal_tim.c", "stm32f0xx_hal_tim_ex.c",
		"stm32f0xx_hal_adc.c", "stm32f0xx_hal_adc_ex.c",
		"stm32f0xx_hal_i2c.c", "stm32f0xx_hal_i2c_ex.c",
		"stm32f0xx_hal_dma.c",
		"stm32f0xx_hal_pwr.c", "stm32f0xx_hal_pwr_ex.c",
		"stm32f0xx_hal_flash.c", "stm32f0xx_hal_flash_ex.c",
		"stm32f0xx_hal_spi.c",
		"system_stm32f0xx.c",
	},
	chip.FamilyF3: {
		"stm32f3xx_hal.c", "stm32f3xx_hal_cortex.c",
		"stm32f3xx_hal_rcc.c", "stm32f3xx_hal_rcc_ex.c",
		"stm32f3xx_hal_gpio.c",
		"stm32f3xx_hal_uart.c", "stm32f3xx_hal_usart.c",
		"stm32f3xx_hal_tim.c", "stm32f3xx_hal_tim_ex.c",
		"stm32f3xx_hal_adc.c", "stm32f3xx_hal_adc_ex.c",
		"stm32f3xx_hal_i2c.c", "stm32f3xx_hal_i2c_ex.c",
		"stm32f3xx_hal_dma.c",
		"stm32f3xx_hal_pwr.c", "stm32f3xx_hal_pwr_ex.c",
		"stm32f3xx_hal_flash.c", "stm32f3xx_hal_flash_ex.c",
		"stm32f3xx_hal_spi.c",
		"system_stm32f3xx.c",
	},
}
