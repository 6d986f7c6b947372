// Package backend implements the ExecutionBackend interface that the
// engine calls to turn an order-one thunk into a Reduction: something
// that actually runs the thunk's executable (Local) and something that
// fans many such runs out concurrently for simulation and load testing
// (SimulatedPool).
//
// Local is grounded on gg's original subprocess runner
// (system_runner.hh / engine_meow.cc): materialize a thunk's blob
// inputs into a scratch directory, exec its executable with argv
// placeholders resolved to those files, and hash whatever output files
// it produced back into the store.
package backend
