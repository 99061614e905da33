// Package launch runs child processes with the ide-browser endpoint published
// in their environment.
//
// A Profile names a command to run. Profiles are read from YAML or TOML:
//
//	profiles:
//	  - name: docs
//	    command: npm
//	    args: [run, docs]
//	    dir: ./site
//	    url: http://localhost:8080
//	    env:
//	      NODE_ENV: development
//
// Launcher.Start first opens the profile's url in the browser tool window,
// then starts the command with IDE_BROWSER_ENDPOINT set. Neither step can fail
// the launch: both failures are logged as warnings and the command still runs.
// Output of the child is streamed into the log line by line, optionally from
// a pseudo-terminal.
package launch
