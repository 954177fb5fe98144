// Package mqttpub publishes computed readings to an MQTT broker, one
// retained message per sensor.
package mqttpub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/kwiles/skylight/internal/types"
	"github.com/kwiles/skylight/pkg/config"
	"go.uber.org/zap"
)

const (
	connectTimeout = 10 * time.Second
	publishQoS     = 0
	disconnectWait = 250 // milliseconds, passed to paho Disconnect
)

// Controller publishes each reading as JSON to
// <topic_prefix>/<sensor_name>/state.
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	mqttConfig config.MQTTData
	client     mqtt.Client
	logger     *zap.SugaredLogger
}

// NewController creates an MQTT publishing controller
func NewController(ctx context.Context, wg *sync.WaitGroup, mc config.MQTTData, logger *zap.SugaredLogger) (*Controller, error) {
	if mc.Broker == "" {
		return nil, fmt.Errorf("mqtt broker address is required")
	}
	if mc.TopicPrefix == "" {
		mc.TopicPrefix = "skylight"
	}
	if mc.ClientID == "" {
		mc.ClientID = "skylight"
	}

	opts := mqtt.NewClientOptions().
		AddBroker(mc.Broker).
		SetClientID(mc.ClientID).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)
	if mc.Username != "" {
		opts.SetUsername(mc.Username)
		opts.SetPassword(mc.Password)
	}

	return &Controller{
		ctx:        ctx,
		wg:         wg,
		mqttConfig: mc,
		client:     mqtt.NewClient(opts),
		logger:     logger,
	}, nil
}

// StartController connects to the broker and arranges a clean disconnect
// on shutdown.
func (c *Controller) StartController() error {
	c.logger.Infof("connecting to MQTT broker %s", c.mqttConfig.Broker)
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("could not connect to MQTT broker: %w", token.Error())
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		c.logger.Info("disconnecting from MQTT broker")
		c.client.Disconnect(disconnectWait)
	}()

	return nil
}

// Publish sends one reading to the broker. Failures are logged, not
// returned; the next update cycle produces a fresh reading anyway.
func (c *Controller) Publish(r types.Reading) {
	payload, err := json.Marshal(r)
	if err != nil {
		c.logger.Errorf("error marshalling reading for %s: %v", r.SensorName, err)
		return
	}

	topic := fmt.Sprintf("%s/%s/state", c.mqttConfig.TopicPrefix, r.SensorName)
	token := c.client.Publish(topic, publishQoS, true, payload)
	token.Wait()
	if token.Error() != nil {
		c.logger.Errorf("error publishing reading to %s: %v", topic, token.Error())
	}
}
