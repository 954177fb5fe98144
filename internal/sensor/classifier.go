package sensor

import (
	"fmt"
	"math"
	"strconv"

	"github.com/kwiles/skylight/internal/types"
	"go.uber.org/zap"
)

// EntityStatus classifies what kind of upstream entity a sensor is reading
// from, ordered least to most informative. Once an entity is classified as
// cloud coverage or condition text the classification is sticky; only the
// raw value is re-read on later cycles.
type EntityStatus int

const (
	StatusNotSeen EntityStatus = iota
	StatusNoAttribution
	StatusOKCloud
	StatusOKCondition
)

func (s EntityStatus) String() string {
	switch s {
	case StatusNotSeen:
		return "not seen"
	case StatusNoAttribution:
		return "no attribution"
	case StatusOKCloud:
		return "cloud coverage"
	case StatusOKCondition:
		return "condition"
	default:
		return "unknown"
	}
}

const descNoWeatherData = "without weather data"

// classifier resolves raw upstream values into an attenuation divisor.
// It owns the per-sensor entity status, the resolved condition mapping,
// and the warn-once flag for missing-data outages.
type classifier struct {
	entity   string
	fallback float64
	started  func() bool
	logger   *zap.SugaredLogger

	status      EntityStatus
	unsupported bool
	mapping     []skEntry
	warned      bool
}

func newClassifier(entity string, fallback float64, started func() bool, logger *zap.SugaredLogger) *classifier {
	return &classifier{
		entity:   entity,
		fallback: fallback,
		started:  started,
		logger:   logger,
	}
}

// pending reports whether the entity still awaits classification. While
// pending and the process not yet started, updates are deferred so an
// upstream integration that is still initializing is not condemned.
func (c *classifier) pending() bool {
	return c.status <= StatusNoAttribution && !c.unsupported
}

// resolve turns the latest upstream state into a divisor and a diagnostic
// description. Every degraded input path falls back to the configured
// fallback divisor; nothing here returns an error to the caller.
func (c *classifier) resolve(st *types.UpstreamState) (sk float64, desc string) {
	sk = c.fallback
	desc = descNoWeatherData

	if c.unsupported {
		return sk, desc
	}

	var condition string
	if st.Usable() {
		condition = st.Value
	}

	// First usable value decides what kind of entity this is.
	if c.status <= StatusNoAttribution {
		if condition != "" {
			if _, err := strconv.ParseFloat(condition, 64); err == nil {
				c.status = StatusOKCloud
				c.logger.Infof("supported entity %s: cloud coverage", c.entity)
			} else {
				c.classifyText(st)
			}
		}

		if c.status <= StatusNoAttribution {
			if condition == "" {
				// Nothing usable yet; keep the status so classification
				// can happen when the entity shows up.
				c.warnMissing()
				return sk, desc
			}
			// Text with no attribution attribute. During startup the
			// upstream integration may simply not be initialized yet;
			// afterwards the entity is permanently unsupported.
			if c.started() {
				c.logger.Errorf("unsupported entity %s: not a number and no %s attribute",
					c.entity, types.AttributionAttr)
				c.unsupported = true
			}
			return sk, desc
		}
	}

	if condition == "" {
		c.warnMissing()
		return sk, desc
	}
	c.warned = false

	if c.status == StatusOKCloud {
		cloud, err := strconv.ParseFloat(condition, 64)
		if err != nil || math.IsNaN(cloud) || cloud < 0 || cloud > 100 {
			c.logger.Errorf("cloud coverage state is not a number between 0 and 100: %s", condition)
			return sk, desc
		}
		return math.Pow(10, cloud/100), fmt.Sprintf("(%.0f%%)", cloud)
	}

	if divisor, ok := lookupCondition(c.mapping, condition); ok {
		return divisor, fmt.Sprintf("(%s)", condition)
	}
	c.logger.Errorf("unexpected current condition: %s", condition)
	return sk, desc
}

// warnMissing logs the missing-data warning once per consecutive outage.
// Startup is exempt so sensors that come up before their upstream entity
// do not cry wolf.
func (c *classifier) warnMissing() {
	if c.started() && !c.warned {
		c.logger.Warnf("weather data not available")
		c.warned = true
	}
}

// classifyText classifies a textual condition source via its attribution
// attribute and resolves the condition mapping to use for it.
func (c *classifier) classifyText(st *types.UpstreamState) {
	attribution := st.Attribution()
	if attribution == "" {
		c.status = StatusNoAttribution
		return
	}
	c.mapping = mappingForAttribution(attribution)
	c.status = StatusOKCondition
	c.logger.Infof("supported entity %s (domain %s): %s is %q",
		c.entity, st.Domain, types.AttributionAttr, attribution)
}
