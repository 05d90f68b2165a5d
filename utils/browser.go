package utils

import (
	"os"
	"os/exec"
)

// FindChromeBinary locates a Chrome/Chromium binary. preferred wins when set.
// An empty result lets chromedp fall back to its own lookup.
func FindChromeBinary(preferred string) string {
	if preferred != "" {
		return preferred
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
