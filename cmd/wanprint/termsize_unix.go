//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"os"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

type termSize struct {
	rows, cols     uint
	xPixel, yPixel uint
}

// getTermSize asks the controlling terminal for its size. The pixel fields
// stay zero on terminals that do not report them.
func getTermSize() (termSize, error) {
	if f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666); err == nil {
		defer f.Close()
		if sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ); err == nil {
			return termSize{rows: uint(sz.Row), cols: uint(sz.Col), xPixel: uint(sz.Xpixel), yPixel: uint(sz.Ypixel)}, nil
		}
	}
	w, h, err := terminal.GetSize(0)
	if err != nil {
		return termSize{}, err
	}
	return termSize{rows: uint(w), cols: uint(h)}, nil
}
