// Package slotplan defines the slot grid of a deployment. It maps wall-clock
// appointment times onto the discrete slot keys capacity is tracked by and
// enumerates the keys of a service day.
package slotplan
