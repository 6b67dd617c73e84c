// Package scenario loads state machine scripts from YAML.
//
// A scenario declares string states, the actions each state runs on enter,
// process and exit, and a schedule of state changes queued from outside:
//
//	name: door
//	initial: closed
//	ticks: 12
//	states:
//	  closed:
//	    process:
//	      - kind: queue
//	        params: {state: open, after: 2}
//	  open:
//	    enter:
//	      - kind: log
//	        params: {message: door opened}
//	    process:
//	      - kind: queue
//	        params: {state: closed, after: 3}
//	  jammed:
//	    enter:
//	      - kind: fail
//	        params: {message: hinge snapped}
//	schedule:
//	  - tick: 9
//	    queue: jammed
//
// Action kinds are log (message, level), fail (message), panic (message) and
// queue (state, after). Params are decoded with mapstructure; unknown params
// are rejected.
//
// Compile turns a scenario into a statemachine.Machine[string] and a Schedule;
// NewDriver wraps both into a processor a loop can drive.
package scenario
