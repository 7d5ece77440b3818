// Package queue provides the record fabric that connects pipeline stages.
// A Queue carries opaque records between one producer stage and one consumer
// stage; both Get and Push block (Get until a record is available, Push until
// the consumer has capacity), so queues are the only suspension points in a
// stage's run loop.
//
// End of stream is signalled in-band: the producer pushes the well-known
// EndOfStream sentinel as its last record. The sentinel is a singleton and is
// distinguishable from any legitimate payload; test records with IsEnd.
package queue
