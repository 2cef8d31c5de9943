// Package pulse attaches to the PulseAudio server over its native protocol
// and exposes the small surface the bridge needs: endpoint listing, volume
// and mute writes, change subscription, and the bounded event wait that
// drives the main-loop tick.
package pulse

import (
	"fmt"
	"net"
	"time"

	"github.com/jfreymuth/pulse/proto"

	"github.com/faderctl/faderctl/internal/event"
	"github.com/faderctl/faderctl/internal/logger"
)

// volumeNorm is the raw volume PulseAudio treats as 100%.
const volumeNorm = 0x10000

// Subscription event encoding, per the native protocol: low nibble is the
// object facility, 0x30 masks the operation.
const (
	facilityMask         = 0x0f
	facilitySink         = 0x00
	facilitySource       = 0x01
	facilitySinkInput    = 0x02
	facilitySourceOutput = 0x03

	subscriptionMaskAll = 0x02ff
)

// Client is a connection to the PulseAudio server.
type Client struct {
	client *proto.Client
	conn   net.Conn

	onChange func(event.AudioEvent)
	wake     chan struct{}
}

// Connect dials the local PulseAudio server and names the client. An empty
// server string uses the usual environment/default lookup.
func Connect(server string) (*Client, error) {
	protoClient, conn, err := proto.Connect(server)
	if err != nil {
		return nil, fmt.Errorf("connect to pulseaudio: %w", err)
	}

	c := &Client{
		client: protoClient,
		conn:   conn,
		wake:   make(chan struct{}, 1),
	}

	props := proto.PropList{
		"application.name": proto.PropListString("faderctl"),
	}
	if err := c.client.Request(&proto.SetClientName{Props: props}, &proto.SetClientNameReply{}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set client name: %w", err)
	}

	c.client.Callback = c.handleMessage

	logger.Info().Msg("Connected to PulseAudio")
	return c, nil
}

// Close tears the connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Subscribe starts delivery of endpoint change notifications. onChange runs
// on the protocol client's read goroutine and must only enqueue.
func (c *Client) Subscribe(onChange func(event.AudioEvent)) error {
	c.onChange = onChange
	if err := c.client.Request(&proto.Subscribe{Mask: subscriptionMaskAll}, nil); err != nil {
		return fmt.Errorf("subscribe to pulseaudio events: %w", err)
	}
	return nil
}

// WaitEvents blocks until at least one subscription event has arrived since
// the last call, or the timeout elapses. This is the core's tick driver.
func (c *Client) WaitEvents(timeout time.Duration) {
	select {
	case <-c.wake:
	case <-time.After(timeout):
	}
}

func (c *Client) handleMessage(msg interface{}) {
	ev, ok := msg.(*proto.SubscribeEvent)
	if !ok {
		return
	}

	var kind event.EndpointKind
	switch int(ev.Event) & facilityMask {
	case facilitySink:
		kind = event.Sink
	case facilitySource:
		kind = event.Source
	case facilitySinkInput:
		kind = event.SinkInput
	case facilitySourceOutput:
		kind = event.SourceOutput
	default:
		return
	}

	if c.onChange != nil {
		c.onChange(event.AudioEvent{Kind: kind, Index: ev.Index})
	}
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// ListEndpoints returns snapshots of every endpoint of the given kind, in
// server order.
func (c *Client) ListEndpoints(kind event.EndpointKind) ([]event.Endpoint, error) {
	switch kind {
	case event.Sink:
		return c.listSinks()
	case event.SinkInput:
		return c.listSinkInputs()
	case event.Source:
		return c.listSources()
	case event.SourceOutput:
		return c.listSourceOutputs()
	default:
		return nil, fmt.Errorf("unknown endpoint kind %q", kind)
	}
}

func (c *Client) listSinks() ([]event.Endpoint, error) {
	var reply proto.GetSinkInfoListReply
	if err := c.client.Request(&proto.GetSinkInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}
	endpoints := make([]event.Endpoint, 0, len(reply))
	for _, info := range reply {
		endpoints = append(endpoints, event.Endpoint{
			Kind:       event.Sink,
			Index:      info.SinkIndex,
			Name:       info.SinkName,
			Properties: propsToMap(info.Properties),
			Volume:     avgVolume(info.ChannelVolumes),
			Muted:      info.Mute,
			Channels:   len(info.ChannelVolumes),
		})
	}
	return endpoints, nil
}

func (c *Client) listSources() ([]event.Endpoint, error) {
	var reply proto.GetSourceInfoListReply
	if err := c.client.Request(&proto.GetSourceInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	endpoints := make([]event.Endpoint, 0, len(reply))
	for _, info := range reply {
		endpoints = append(endpoints, event.Endpoint{
			Kind:       event.Source,
			Index:      info.SourceIndex,
			Name:       info.SourceName,
			Properties: propsToMap(info.Properties),
			Volume:     avgVolume(info.ChannelVolumes),
			Muted:      info.Mute,
			Channels:   len(info.ChannelVolumes),
		})
	}
	return endpoints, nil
}

func (c *Client) listSinkInputs() ([]event.Endpoint, error) {
	var reply proto.GetSinkInputInfoListReply
	if err := c.client.Request(&proto.GetSinkInputInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list sink inputs: %w", err)
	}
	endpoints := make([]event.Endpoint, 0, len(reply))
	for _, info := range reply {
		endpoints = append(endpoints, event.Endpoint{
			Kind:       event.SinkInput,
			Index:      info.SinkInputIndex,
			Name:       info.MediaName,
			Properties: propsToMap(info.Properties),
			Volume:     avgVolume(info.ChannelVolumes),
			Muted:      info.Muted,
			Channels:   len(info.ChannelVolumes),
		})
	}
	return endpoints, nil
}

func (c *Client) listSourceOutputs() ([]event.Endpoint, error) {
	var reply proto.GetSourceOutputInfoListReply
	if err := c.client.Request(&proto.GetSourceOutputInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list source outputs: %w", err)
	}
	endpoints := make([]event.Endpoint, 0, len(reply))
	for _, info := range reply {
		endpoints = append(endpoints, event.Endpoint{
			Kind:       event.SourceOutput,
			Index:      info.SourceOutpuIndex,
			Name:       info.MediaName,
			Properties: propsToMap(info.Properties),
			Volume:     avgVolume(info.ChannelVolumes),
			Muted:      info.Muted,
			Channels:   len(info.ChannelVolumes),
		})
	}
	return endpoints, nil
}

// SetVolume sets the endpoint's volume uniformly on all channels. volume is
// normalized: 1.0 means 100%.
func (c *Client) SetVolume(ep event.Endpoint, volume float64) error {
	channels := ep.Channels
	if channels < 1 {
		channels = 2
	}
	raw := uint32(volume * volumeNorm)
	vols := make([]uint32, channels)
	for i := range vols {
		vols[i] = raw
	}

	var err error
	switch ep.Kind {
	case event.Sink:
		err = c.client.Request(&proto.SetSinkVolume{SinkIndex: ep.Index, ChannelVolumes: vols}, nil)
	case event.SinkInput:
		err = c.client.Request(&proto.SetSinkInputVolume{SinkInputIndex: ep.Index, ChannelVolumes: vols}, nil)
	case event.Source:
		err = c.client.Request(&proto.SetSourceVolume{SourceIndex: ep.Index, ChannelVolumes: vols}, nil)
	case event.SourceOutput:
		err = c.client.Request(&proto.SetSourceOutputVolume{SourceOutputIndex: ep.Index, ChannelVolumes: vols}, nil)
	default:
		return fmt.Errorf("unknown endpoint kind %q", ep.Kind)
	}
	if err != nil {
		return fmt.Errorf("set volume on %s %q: %w", ep.Kind, ep.Name, err)
	}
	return nil
}

// SetMute sets the endpoint's mute state.
func (c *Client) SetMute(ep event.Endpoint, muted bool) error {
	var err error
	switch ep.Kind {
	case event.Sink:
		err = c.client.Request(&proto.SetSinkMute{SinkIndex: ep.Index, Mute: muted}, nil)
	case event.SinkInput:
		err = c.client.Request(&proto.SetSinkInputMute{SinkInputIndex: ep.Index, Mute: muted}, nil)
	case event.Source:
		err = c.client.Request(&proto.SetSourceMute{SourceIndex: ep.Index, Mute: muted}, nil)
	case event.SourceOutput:
		err = c.client.Request(&proto.SetSourceOutputMute{SourceOutputIndex: ep.Index, Mute: muted}, nil)
	default:
		return fmt.Errorf("unknown endpoint kind %q", ep.Kind)
	}
	if err != nil {
		return fmt.Errorf("set mute on %s %q: %w", ep.Kind, ep.Name, err)
	}
	return nil
}

func propsToMap(props proto.PropList) map[string]string {
	m := make(map[string]string, len(props))
	for k, v := range props {
		m[k] = v.String()
	}
	return m
}

func avgVolume(vols []uint32) float64 {
	if len(vols) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range vols {
		sum += uint64(v)
	}
	return float64(sum) / float64(len(vols)) / volumeNorm
}
