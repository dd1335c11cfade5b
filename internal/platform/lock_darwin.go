//go:build darwin

package platform

func lockCommand() (string, []string) {
	return "pmset", []string{"displaysleepnow"}
}
