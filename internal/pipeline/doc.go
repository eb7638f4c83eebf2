// Package pipeline provides a framework for executing training stages in
// sequence.
//
// A training run flows through multiple stages: dataset loading, feature
// extraction, splitting, fitting, evaluation, persistence, and run
// recording. Each stage is implemented as a Step that receives the shared
// run state and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running training runs
package pipeline
