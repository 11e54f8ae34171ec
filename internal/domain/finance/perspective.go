package finance

import (
	"strings"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
)

// Perspective selects how aggregated revenue counts a transaction:
// the full amount (gross) or only the studio's post-commission share (net).
// It is an explicit parameter of every aggregation call, never ambient state.
type Perspective string

const (
	PerspectiveGross Perspective = "gross"
	PerspectiveNet   Perspective = "net"
)

func ParsePerspective(s string) (Perspective, error) {
	switch Perspective(strings.ToLower(strings.TrimSpace(s))) {
	case PerspectiveGross, "":
		return PerspectiveGross, nil
	case PerspectiveNet:
		return PerspectiveNet, nil
	}
	return "", httperr.ErrBusiness("invalid_perspective")
}
