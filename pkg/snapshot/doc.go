// Package snapshot defines the point-in-time view of a running state machine
// and the Store port used to persist it.
//
// Machines produce snapshots (see statemachine.Machine.Snapshot); the tick loop
// records them after every tick through a Store so that other processes can
// inspect what each machine is doing. MemoryStore is the in-process
// implementation; package redis provides a shared one. Store implementations
// are verified with snapshottest.RunStoreContract.
package snapshot
