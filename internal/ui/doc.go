/*
Package ui provides the single-threaded UI execution context of the host.

All mutable UI state (tool windows, their content containers, browser surfaces
and the surface registry) is confined to one goroutine. Other goroutines never
touch that state directly; they post a Task and return.

# Scheduling

	Scheduler        - posting interface (Post never blocks)
	Loop             - bounded FIFO queue drained by exactly one goroutine
	ManualScheduler  - deterministic fake, runs queued tasks on Drain()

Post fails with ErrQueueFull when the queue is at capacity and with ErrClosed
after the loop was closed. A panicking task is recovered and logged, the loop
keeps running.

# Workspaces and Tool Windows

Workspaces is the list of open workspaces and is safe for concurrent use, the
network side only asks whether one is open. Each workspace owns a
ToolWindowManager with one ToolWindow per declared id. Showing a tool window
for the first time materializes its content into a Container; disposing the
container runs its dispose hooks in reverse registration order.
*/
package ui
