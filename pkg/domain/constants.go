package domain

// Defaults shared by the compiler, the engine and the file loader.
const (
	// DefaultNamespace prefixes every serialized address of an engine.
	DefaultNamespace = "root"

	// DefaultDelimiter separates address segments in serialized keys.
	DefaultDelimiter = "::"

	// DefaultBackLabel is the reserved label of the synthetic back button.
	DefaultBackLabel = "back"

	// DefaultRowWidth is the number of buttons per row when a level declares no shape.
	DefaultRowWidth = 3

	// DefaultName is used in session notices when the engine has no explicit name.
	DefaultName = "Keyboard"
)
