// Package deque implements a power-of-two-sized ring buffer used
// throughout the runtime as the nursery list, the modified buffer, the
// decrement buffer, the cycle-roots worklist, the to-free queue, and the
// to-finalize queue (spec §4.2).
//
// Iteration must remain stable under PushBack and under removal of the
// just-yielded element (its callback returning false) during a Visit call;
// any other mutation during
// iteration is undefined, matching the contract the collector relies on
// when it both appends freshly-decremented objects and removes reconciled
// ones in the same pass.
package deque
