/*
Package event provides a pub/sub event system for settings changes.

Components that change cached settings announce it on a Bus so that long-lived
consumers (the HTTP event stream, tests, embedding programs) can re-request
settings instead of trusting values they already hold.

# Event Types

  - settings.reset: the settings cache was cleared; data carries the new version
  - config.registered: an import file was registered
  - config.changed: watched settings files changed on disk
  - words.added: words were written to a folder settings file

# Basic Usage

	bus := event.NewBus()
	defer bus.Close()

	unsubscribe := bus.Subscribe(event.SettingsReset, func(e event.Event) {
		data := e.Data.(event.SettingsResetData)
		log.Info().Uint64("version", data.Version).Msg("settings reset")
	})
	defer unsubscribe()

	bus.PublishSync(event.Event{
		Type: event.SettingsReset,
		Data: event.SettingsResetData{Version: 2},
	})

Every event gets a ULID and a timestamp when published, unless already set.

# Subscriber Safety Guidelines

When using PublishSync, subscribers are called synchronously in the publisher's
goroutine. Subscribers MUST complete quickly and must never publish from within
the callback.

# Integration with Watermill

Each published event is also encoded as JSON and forwarded to the watermill
gochannel topic "settings.events". Messages returns a subscription to it; the
message UUID is the event ID. Consumers must Ack each message or delivery to
that subscription stalls.
*/
package event
