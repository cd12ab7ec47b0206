package webkb

import "context"

// RobotsGate answers exclusion-protocol queries. Implementations fetch and
// cache one robots.txt document per domain; an unfetchable document means
// "allowed".
type RobotsGate interface {
	Allowed(ctx context.Context, url string) bool
}
