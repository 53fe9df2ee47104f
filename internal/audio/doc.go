// Package audio loads the WAV source file shared by all simulated listeners.
// It splits the container into the header bytes (everything through the data
// chunk tag and size field) and the raw PCM payload, and derives the pacing
// values that keep frame emission at real-time playback rate.
package audio
