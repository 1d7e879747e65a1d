package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/urmzd/eyecare/pkg/config"
	"github.com/urmzd/eyecare/pkg/device"
	"github.com/urmzd/eyecare/pkg/device/schema"
	"github.com/urmzd/eyecare/pkg/lamp"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	commandTimeout = 10 * time.Second
)

// Bridge publishes lamp state to MQTT with Home Assistant discovery and
// forwards commands from the lamps' set topics to the controller.
type Bridge struct {
	client     pahomqtt.Client
	controller device.Controller
	subscriber device.EventSubscriber
	validator  *schema.Validator
	prefix     string
	logger     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	events chan device.StateEvent
	done   chan struct{}
}

// NewBridge creates and connects an MQTT bridge.
func NewBridge(controller device.Controller, subscriber device.EventSubscriber, validator *schema.Validator, cfg config.MQTT, logger zerolog.Logger) (*Bridge, error) {
	b := newBridge(nil, controller, subscriber, validator, cfg.TopicPrefix, logger)

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID("eyecare-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOrderMatters(false).
		SetWill(bridgeStateTopic(cfg.TopicPrefix), payloadOffline, 1, true).
		SetOnConnectHandler(func(_ pahomqtt.Client) {
			b.logger.Info().Msg("MQTT connected")
			b.onConnect()
		}).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			b.logger.Warn().Err(err).Msg("MQTT connection lost")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	b.client = pahomqtt.NewClient(opts)
	if err := b.connect(connectTimeout); err != nil {
		return nil, err
	}
	return b, nil
}

// connect waits for the first broker connection. On failure the client is
// disconnected so its retry loop does not outlive the bridge.
func (b *Bridge) connect(timeout time.Duration) error {
	token := b.client.Connect()

	var err error
	if !token.WaitTimeout(timeout) {
		err = fmt.Errorf("mqtt connect timeout")
	} else if tokenErr := token.Error(); tokenErr != nil {
		err = fmt.Errorf("mqtt connect: %w", tokenErr)
	}
	if err != nil {
		b.client.Disconnect(0)
		b.cancel()
		return err
	}
	return nil
}

func newBridge(client pahomqtt.Client, controller device.Controller, subscriber device.EventSubscriber, validator *schema.Validator, prefix string, logger zerolog.Logger) *Bridge {
	if prefix == "" {
		prefix = config.DefaultTopicPrefix
	}
	if validator == nil {
		validator = schema.NewValidator()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		client:     client,
		controller: controller,
		subscriber: subscriber,
		validator:  validator,
		prefix:     prefix,
		logger:     logger.With().Str("component", "mqtt").Logger(),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Start subscribes to lamp events and begins MQTT publishing.
func (b *Bridge) Start() {
	b.events = b.subscriber.Subscribe()
	go b.run()
	b.logger.Info().Str("prefix", b.prefix).Msg("MQTT bridge started")
}

// Stop publishes offline state, unsubscribes, and disconnects.
func (b *Bridge) Stop() {
	b.cancel()
	if b.events != nil {
		<-b.done
		b.subscriber.Unsubscribe(b.events)
	}
	b.publish(bridgeStateTopic(b.prefix), []byte(payloadOffline), true)
	b.client.Disconnect(1000)
	b.logger.Info().Msg("MQTT bridge stopped")
}

func (b *Bridge) run() {
	defer close(b.done)
	for {
		select {
		case <-b.ctx.Done():
			return
		case evt, ok := <-b.events:
			if !ok {
				return
			}
			b.handleEvent(evt)
		}
	}
}

// onConnect announces the bridge and every lamp. Subscriptions are
// renewed on each connect since the broker session is not persistent.
func (b *Bridge) onConnect() {
	b.publish(bridgeStateTopic(b.prefix), []byte(payloadOnline), true)

	lamps, err := b.controller.ListDevices(b.ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to list lamps")
		return
	}
	for _, dev := range lamps {
		b.subscribeCommands(dev)
		if !dev.Connected {
			continue
		}
		b.publishDiscovery(dev)
		if state, err := b.controller.GetDeviceState(b.ctx, dev.ID); err == nil {
			b.publishState(dev, state)
		}
	}
}

func (b *Bridge) handleEvent(evt device.StateEvent) {
	switch evt.Type {
	case device.EventLampConnected:
		b.publishDiscovery(evt.Device)
		b.publishState(evt.Device, evt.State)
	case device.EventStateChanged:
		b.publishState(evt.Device, evt.State)
	}
}

func (b *Bridge) publishDiscovery(dev device.Device) {
	msg := buildDiscovery(dev, b.prefix)
	b.publish(msg.Topic, msg.Payload, true)
	b.logger.Info().Str("lamp", dev.ID).Str("name", dev.Name).Msg("Published HA discovery")
}

// publishState publishes availability and, once known, the power state.
func (b *Bridge) publishState(dev device.Device, state device.DeviceState) {
	b.publish(availabilityTopic(b.prefix, dev), []byte(availabilityPayload(state)), true)
	if state.Available {
		b.publish(stateTopic(b.prefix, dev), statePayload(state), true)
	}
}

func (b *Bridge) subscribeCommands(dev device.Device) {
	topic := commandTopic(b.prefix, dev)
	token := b.client.Subscribe(topic, 1, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		b.handleCommand(dev, msg.Payload())
	})
	go b.wait(token, topic, "subscribe")
}

func (b *Bridge) handleCommand(dev device.Device, payload []byte) {
	cmd, err := parseCommand(b.validator, payload)
	if err != nil {
		b.logger.Warn().Err(err).Str("lamp", dev.ID).Msg("Invalid command")
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	var state device.DeviceState
	switch cmd.name {
	case lamp.CommandTurnOn:
		state, err = b.controller.TurnOn(ctx, dev.ID, cmd.brightness)
	case lamp.CommandTurnOff:
		state, err = b.controller.TurnOff(ctx, dev.ID)
	case lamp.CommandRefresh:
		state, err = b.controller.Refresh(ctx, dev.ID)
	}
	if err != nil {
		b.logger.Warn().Err(err).Str("lamp", dev.ID).Str("command", cmd.name).Msg("Command rejected")
		return
	}
	if !state.Success {
		b.logger.Warn().Str("lamp", dev.ID).Str("command", cmd.name).Msg("Command had no effect")
	}

	// Republish so optimistic subscribers converge on the cached state.
	b.publishState(dev, state)
}

// command is a parsed set-topic payload.
type command struct {
	name       string
	brightness *uint8
}

// parseCommand decodes a JSON schema light command. A payload carrying
// only brightness turns the lamp on.
func parseCommand(validator *schema.Validator, payload []byte) (command, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return command{}, fmt.Errorf("invalid command JSON: %w", err)
	}
	if err := validator.Validate(schema.CommandSchema, raw); err != nil {
		return command{}, err
	}

	cmd := command{name: lamp.CommandTurnOn}
	if state, ok := raw["state"].(string); ok {
		switch strings.ToUpper(state) {
		case "OFF":
			return command{name: lamp.CommandTurnOff}, nil
		case "REFRESH":
			return command{name: lamp.CommandRefresh}, nil
		}
	}
	if v, ok := raw["brightness"].(float64); ok {
		level := uint8(v)
		cmd.brightness = &level
	}
	return cmd, nil
}

func (b *Bridge) publish(topic string, payload []byte, retained bool) {
	token := b.client.Publish(topic, 1, retained, payload)
	go b.wait(token, topic, "publish")
}

func (b *Bridge) wait(token pahomqtt.Token, topic, op string) {
	if !token.WaitTimeout(publishTimeout) {
		b.logger.Warn().Str("topic", topic).Str("op", op).Msg("MQTT timeout")
	} else if err := token.Error(); err != nil {
		b.logger.Warn().Err(err).Str("topic", topic).Str("op", op).Msg("MQTT error")
	}
}
