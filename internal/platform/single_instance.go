package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another process already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// InstanceGuard is a process-lifetime lock. It binds a loopback port
// derived from the app name, so the lock disappears with the process
// and never leaves stale state behind.
type InstanceGuard struct {
	listener net.Listener
}

// AcquireSingleInstance takes the lock or reports ErrAlreadyRunning.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", instancePort(appName)))
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener}, nil
}

// Release frees the lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

func instancePort(appName string) int {
	const (
		portBase  = 41000
		portRange = 8000
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	return portBase + int(hash.Sum32()%uint32(portRange))
}
