package core

// Flags defines the various flags you can call the lookup server with. These are used in main
// and passed down to the server code to process. Flags win over the environment.
type Flags struct {
	ConnectionString string

	NATSURL string
	Creds   string

	Debug           bool
	Verbose         bool
	DebugAndVerbose bool

	HostPort string
}
