package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	Model     string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Input selection
	BookID      string
	ChapterID   string
	BatchFile   string
	Concurrency int

	// Book flags
	Title  string
	Author string

	// Output flags
	OutputDir string
	JSON      bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Concurrency: 2,
		OutputDir:   "export",
	}
}
