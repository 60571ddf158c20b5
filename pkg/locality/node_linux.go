//go:build linux
// +build linux

package locality

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// CurrentNode returns the NUMA node the calling goroutine is running on.
// The goroutine may migrate immediately after the call; the result is a
// placement hint, not a guarantee.
func CurrentNode() int {
	var cpu, node uint32
	_, _, errno := unix.RawSyscall(unix.SYS_GETCPU,
		uintptr(unsafe.Pointer(&cpu)), uintptr(unsafe.Pointer(&node)), 0)
	if errno != 0 {
		return 0
	}
	return int(node)
}
