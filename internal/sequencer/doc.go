// Package sequencer produces the unbounded frame stream for one listener:
// a header frame opening each file cycle, the PCM pages paced at real-time
// playback rate, and a rest interval between cycles, repeating until the
// context is cancelled.
package sequencer
