package actuator

import (
	"sync"

	"climate-backend/internal/models"
)

// Controller holds the last-published actuator states and turns classifier
// output into the minimal set of state-change commands. State starts
// all-OFF and is only ever mutated through Emit.
type Controller struct {
	mu   sync.Mutex
	last models.DeviceStateSet
}

// NewController returns a controller with every device OFF.
func NewController() *Controller {
	return &Controller{last: models.AllOff()}
}

// Decide computes the desired state set for the given comfort reasons.
// Every device defaults to OFF and is switched ON only by its own reason.
func Decide(reasons []models.Reason) models.DeviceStateSet {
	next := models.AllOff()
	for _, r := range reasons {
		switch r {
		case models.ReasonHighTemperature:
			next.AC = models.StateOn
		case models.ReasonPoorAirQuality:
			next.Purifier = models.StateOn
		case models.ReasonHighHumidity:
			next.Dehumidifier = models.StateOn
		}
	}
	return next
}

// Emit diffs next against the last-published set and returns only the
// entries whose state changed. The internal state is then replaced
// unconditionally, so issuing the same decision twice yields one non-empty
// emission followed by an empty one.
func (c *Controller) Emit(next models.DeviceStateSet) []models.Command {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cmds []models.Command
	if next.AC != c.last.AC {
		cmds = append(cmds, models.Command{Device: models.DeviceAC, State: next.AC})
	}
	if next.Purifier != c.last.Purifier {
		cmds = append(cmds, models.Command{Device: models.DevicePurifier, State: next.Purifier})
	}
	if next.Dehumidifier != c.last.Dehumidifier {
		cmds = append(cmds, models.Command{Device: models.DeviceDehumidifier, State: next.Dehumidifier})
	}

	c.last = next
	return cmds
}

// States returns a copy of the last-published state set.
func (c *Controller) States() models.DeviceStateSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
