//go:build windows

package platform

func lockCommand() (string, []string) {
	return "rundll32.exe", []string{"user32.dll,LockWorkStation"}
}
