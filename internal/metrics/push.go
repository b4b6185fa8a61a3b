package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

const pushJob = "liveairlines_provisioner"

// Push sends the current metric values to a Pushgateway. One-shot commands
// exit before any scrape could happen, so this is their only export path.
func (m *MetricsRegistry) Push(url string, command string) error {
	err := push.New(url, pushJob).
		Gatherer(m.gatherer).
		Grouping("command", command).
		Push()
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
