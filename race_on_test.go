//go:build race

package dodesc_test

const raceEnabled = true
