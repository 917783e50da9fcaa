// Package capture turns raw interleaved PCM into the mono [core.SampleBuffer]
// the analyzer consumes.
//
// A [Stream] is a bounded single-producer, single-consumer queue of sample
// blocks. A producer (for example [Pump] reading a file or stdin) writes
// blocks while the consumer drains them into one buffer. Blocks are never
// reordered, and blocks dropped by [Stream.TryWrite] are counted.
package capture
