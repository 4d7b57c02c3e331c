package formatting

import "fmt"

// FormatRate форматирует ставку из центов в доллары
func FormatRate(cents int) string {
	if cents == 0 {
		return "free"
	}
	if cents%100 == 0 {
		return fmt.Sprintf("$%d", cents/100)
	}
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
