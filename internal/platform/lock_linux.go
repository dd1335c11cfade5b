//go:build linux

package platform

func lockCommand() (string, []string) {
	return "xdg-screensaver", []string{"lock"}
}
