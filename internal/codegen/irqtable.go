package codegen

import "github.com/flashtalk/fwbuild/internal/chip"

// Vector is one peripheral interrupt slot in a family's vector table. The
// empty string marks a reserved slot, which still occupies its word in the
// emitted table: slot position encodes the interrupt number, so dropping a
// reserved entry would misroute every interrupt after it.
type Vector string

// Reserved is the zero Vector.
const Reserved Vector = ""

// IRQTable returns the ordered peripheral interrupt handler names for a
// family, indexed by vector slot. Length and ordering are fixed per family
// and mirror the silicon's documented vector layout.
func IRQTable(family chip.Family) []Vector {
	if t, ok := familyIRQs[family]; ok {
		return t
	}
	return f1IRQs
}

var familyIRQs = map[chip.Family][]Vector{
	chip.FamilyF0: f0IRQs,
	chip.FamilyF1: f1IRQs,
	chip.FamilyF3: f3IRQs,
	chip.FamilyF4: f4IRQs,
}

var f1IRQs = []Vector{
	"WWDG_IRQHandler", "PVD_IRQHandler",
	"TAMPER_IRQHandler", "RTC_IRQHandler",
	"FLASH_IRQHandler", "RCC_IRQHandler",
	"EXTI0_IRQHandler", "EXTI1_IRQHandler",
	"EXTI2_IRQHandler", "EXTI3_IRQHandler",
	"EXTI4_IRQHandler",
	"DMA1_Channel1_IRQHandler", "DMA1_Channel2_IRQHandler",
	"DMA1_Channel3_IRQHandler", "DMA1_Channel4_IRQHandler",
	"DMA1_Channel5_IRQHandler", "DMA1_Channel6_IRQHandler",
	"DMA1_Channel7_IRQHandler", "ADC1_2_IRQHandler",
	"USB_HP_CAN1_TX_IRQHandler", "USB_LP_CAN1_RX0_IRQHandler",
	"CAN1_RX1_IRQHandler", "CAN1_SCE_IRQHandler",
	"EXTI9_5_IRQHandler",
	"TIM1_BRK_IRQHandler", "TIM1_UP_IRQHandler",
	"TIM1_TRG_COM_IRQHandler", "TIM1_CC_IRQHandler",
	"TIM2_IRQHandler", "TIM3_IRQHandler",
	"TIM4_IRQHandler",
	"I2C1_EV_IRQHandler", "I2C1_ER_IRQHandler",
	"I2C2_EV_IRQHandler", "I2C2_ER_IRQHandler",
	"SPI1_IRQHandler", "SPI2_IRQHandler",
	"USART1_IRQHandler", "USART2_IRQHandler",
	"USART3_IRQHandler", "EXTI15_10_IRQHandler",
	"RTC_Alarm_IRQHandler", "USBWakeUp_IRQHandler",
	"TIM8_BRK_IRQHandler", "TIM8_UP_IRQHandler",
	"TIM8_TRG_COM_IRQHandler", "TIM8_CC_IRQHandler",
	"ADC3_IRQHandler", "FSMC_IRQHandler",
	"SDIO_IRQHandler", "TIM5_IRQHandler",
	"SPI3_IRQHandler", "UART4_IRQHandler",
	"UART5_IRQHandler", "TIM6_IRQHandler",
	"TIM7_IRQHandler",
	"DMA2_Channel1_IRQHandler", "DMA2_Channel2_IRQHandler",
	"DMA2_Channel3_IRQHandler", "DMA2_Channel4_5_IRQHandler",
	Reserved, Reserved, Reserved, Reserved,
	Reserved, Reserved, Reserved, Reserved,
}

// F0 differs substantially from F1: merged EXTI lines, combined timer
// interrupts, single-slot I2C/USART pairs.
var f0IRQs = []Vector{
	"WWDG_IRQHandler", "PVD_VDDIO2_IRQHandler",
	"RTC_IRQHandler", "FLASH_IRQHandler",
	"RCC_CRS_IRQHandler", "EXTI0_1_IRQHandler",
	"EXTI2_3_IRQHandler", "EXTI4_15_IRQHandler",
	"TSC_IRQHandler", "DMA1_Channel1_IRQHandler",
	"DMA1_Channel2_3_IRQHandler", "DMA1_Channel4_5_6_7_IRQHandler",
	"ADC1_COMP_IRQHandler", "TIM1_BRK_UP_TRG_COM_IRQHandler",
	"TIM1_CC_IRQHandler", "TIM2_IRQHandler",
	"TIM3_IRQHandler", "TIM6_DAC_IRQHandler",
	"TIM7_IRQHandler", "TIM14_IRQHandler",
	"TIM15_IRQHandler", "TIM16_IRQHandler",
	"TIM17_IRQHandler", "I2C1_IRQHandler",
	"I2C2_IRQHandler", "SPI1_IRQHandler",
	"SPI2_IRQHandler", "USART1_IRQHandler",
	"USART2_IRQHandler", "USART3_4_IRQHandler",
	"CEC_CAN_IRQHandler", "USB_IRQHandler",
}

// TODO: revalidate the tail of this table (slots 63 onward) against the
// RM0316 vector layout; the I2C3/USB slot numbering around the comparator
// block is suspect.
var f3IRQs = []Vector{
	"WWDG_IRQHandler", "PVD_IRQHandler",
	"TAMP_STAMP_IRQHandler", "RTC_WKUP_IRQHandler",
	"FLASH_IRQHandler", "RCC_IRQHandler",
	"EXTI0_IRQHandler", "EXTI1_IRQHandler",
	"EXTI2_TSC_IRQHandler", "EXTI3_IRQHandler",
	"EXTI4_IRQHandler",
	"DMA1_Channel1_IRQHandler", "DMA1_Channel2_IRQHandler",
	"DMA1_Channel3_IRQHandler", "DMA1_Channel4_IRQHandler",
	"DMA1_Channel5_IRQHandler", "DMA1_Channel6_IRQHandler",
	"DMA1_Channel7_IRQHandler", "ADC1_2_IRQHandler",
	"USB_HP_CAN1_TX_IRQHandler", "USB_LP_CAN1_RX0_IRQHandler",
	"CAN1_RX1_IRQHandler", "CAN1_SCE_IRQHandler",
	"EXTI9_5_IRQHandler",
	"TIM1_BRK_TIM15_IRQHandler", "TIM1_UP_TIM16_IRQHandler",
	"TIM1_TRG_COM_TIM17_IRQHandler", "TIM1_CC_IRQHandler",
	"TIM2_IRQHandler", "TIM3_IRQHandler",
	"TIM4_IRQHandler",
	"I2C1_EV_IRQHandler", "I2C1_ER_IRQHandler",
	"I2C2_EV_IRQHandler", "I2C2_ER_IRQHandler",
	"SPI1_IRQHandler", "SPI2_IRQHandler",
	"USART1_IRQHandler", "USART2_IRQHandler",
	"USART3_IRQHandler", "EXTI15_10_IRQHandler",
	"RTC_Alarm_IRQHandler", "USBWakeUp_IRQHandler",
	"TIM8_BRK_IRQHandler", "TIM8_UP_IRQHandler",
	"TIM8_TRG_COM_IRQHandler", "TIM8_CC_IRQHandler",
	"ADC3_IRQHandler", Reserved, Reserved,
	"SPI3_IRQHandler", "UART4_IRQHandler",
	"UART5_IRQHandler", "TIM6_DAC_IRQHandler",
	"TIM7_IRQHandler",
	"DMA2_Channel1_IRQHandler", "DMA2_Channel2_IRQHandler",
	"DMA2_Channel3_IRQHandler", "DMA2_Channel4_IRQHandler",
	"DMA2_Channel5_IRQHandler", "ADC4_IRQHandler",
	Reserved, Reserved,
	"COMP1_2_3_IRQHandler", "COMP4_5_6_IRQHandler",
	"COMP7_IRQHandler", Reserved, Reserved, Reserved, Reserved, Reserved,
	"I2C3_EV_IRQHandler", "I2C3_ER_IRQHandler",
	"USB_HP_IRQHandler", "USB_LP_IRQHandler",
	"USBWakeUp_RMP_IRQHandler",
	"TIM20_BRK_IRQHandler", "TIM20_UP_IRQHandler",
	"TIM20_TRG_COM_IRQHandler", "TIM20_CC_IRQHandler",
	"FPU_IRQHandler", "SPI4_IRQHandler",
}

var f4IRQs = []Vector{
	"WWDG_IRQHandler", "PVD_IRQHandler",
	"TAMP_STAMP_IRQHandler", "RTC_WKUP_IRQHandler",
	"FLASH_IRQHandler", "RCC_IRQHandler",
	"EXTI0_IRQHandler", "EXTI1_IRQHandler",
	"EXTI2_IRQHandler", "EXTI3_IRQHandler",
	"EXTI4_IRQHandler",
	"DMA1_Stream0_IRQHandler", "DMA1_Stream1_IRQHandler",
	"DMA1_Stream2_IRQHandler", "DMA1_Stream3_IRQHandler",
	"DMA1_Stream4_IRQHandler", "DMA1_Stream5_IRQHandler",
	"DMA1_Stream6_IRQHandler", "ADC_IRQHandler",
	"CAN1_TX_IRQHandler", "CAN1_RX0_IRQHandler",
	"CAN1_RX1_IRQHandler", "CAN1_SCE_IRQHandler",
	"EXTI9_5_IRQHandler",
	"TIM1_BRK_TIM9_IRQHandler", "TIM1_UP_TIM10_IRQHandler",
	"TIM1_TRG_COM_TIM11_IRQHandler", "TIM1_CC_IRQHandler",
	"TIM2_IRQHandler", "TIM3_IRQHandler",
	"TIM4_IRQHandler",
	"I2C1_EV_IRQHandler", "I2C1_ER_IRQHandler",
	"I2C2_EV_IRQHandler", "I2C2_ER_IRQHandler",
	"SPI1_IRQHandler", "SPI2_IRQHandler",
	"USART1_IRQHandler", "USART2_IRQHandler",
	"USART3_IRQHandler", "EXTI15_10_IRQHandler",
	"RTC_Alarm_IRQHandler", "OTG_FS_WKUP_IRQHandler",
	"TIM8_BRK_TIM12_IRQHandler", "TIM8_UP_TIM13_IRQHandler",
	"TIM8_TRG_COM_TIM14_IRQHandler", "TIM8_CC_IRQHandler",
	"DMA1_Stream7_IRQHandler", "FSMC_IRQHandler",
	"SDIO_IRQHandler", "TIM5_IRQHandler",
	"SPI3_IRQHandler", "UART4_IRQHandler",
	"UART5_IRQHandler", "TIM6_DAC_IRQHandler",
	"TIM7_IRQHandler",
	"DMA2_Stream0_IRQHandler", "DMA2_Stream1_IRQHandler",
	"DMA2_Stream2_IRQHandler", "DMA2_Stream3_IRQHandler",
	"DMA2_Stream4_IRQHandler", "ETH_IRQHandler",
	"ETH_WKUP_IRQHandler", "CAN2_TX_IRQHandler",
	"CAN2_RX0_IRQHandler", "CAN2_RX1_IRQHandler",
	"CAN2_SCE_IRQHandler", "OTG_FS_IRQHandler",
	"DMA2_Stream5_IRQHandler", "DMA2_Stream6_IRQHandler",
	"DMA2_Stream7_IRQHandler", "USART6_IRQHandler",
	"I2C3_EV_IRQHandler", "I2C3_ER_IRQHandler",
	"OTG_HS_EP1_OUT_IRQHandler", "OTG_HS_EP1_IN_IRQHandler",
	"OTG_HS_WKUP_IRQHandler", "OTG_HS_IRQHandler",
	"DCMI_IRQHandler", Reserved,
	"HASH_RNG_IRQHandler", "FPU_IRQHandler",
}
