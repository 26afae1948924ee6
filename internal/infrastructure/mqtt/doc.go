// Package mqtt provides the MQTT publisher used to broadcast todo change events.
//
// This package manages:
//   - Connection to an MQTT broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Topics
//
// All topics share a configurable prefix (default "todoapi"):
//
//	todoapi/status              retained online/offline status
//	todoapi/event/todo.created  one message per created todo
//	todoapi/event/todo.updated
//	todoapi/event/todo.deleted
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().Event("todo.created")
//	err = client.Publish(topic, payload, 1, false)
//
// The broker is optional: mqtt.enabled defaults to false and the API
// works the same without it.
package mqtt
