package semconv

// Compilation
const (
	// Random ID generated for every call to Compile. Two compilations of the same source
	// get different IDs.
	CompilationID = "compilation_id"

	// Pipeline stage: lex, parse, transform or generate.
	Stage = "stage"

	// Number of tokens produced by the lexer.
	TokenCount = "token_count"

	// Number of top level expressions in the program.
	StatementCount = "statement_count"

	// Length of the source in bytes.
	SourceLength = "source_length"
)

// Commands
const (
	// Path of the file being compiled. "-" means stdin.
	File = "file"

	// Address of the client connected to the compile server.
	RemoteAddr = "remote_addr"
)
