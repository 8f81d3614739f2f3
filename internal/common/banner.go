package common

import (
	"fmt"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner
func PrintBanner(version string) {
	banner.New().PrintText(fmt.Sprintf("Conform %s", version))
}
