//go:build !linux

package taskgw

import (
	"errors"

	"auisched/pkg/logx"
)

var ErrUnsupported = errors.New("taskgw: systemd backend requires linux")

// NewSystemdBridge is unavailable off linux; use the schtasks or crontab
// backend instead.
func NewSystemdBridge(prefix string, log logx.Logger) (Bridge, error) {
	return nil, ErrUnsupported
}
