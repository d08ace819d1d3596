package persistence

// Slot keys. They match the keys the web client keeps in local storage so an
// exported browser profile can be imported verbatim.
const (
	KeyNotes            = "marknote_notes"
	KeyFolders          = "marknote_folders"
	KeyTheme            = "marknote_theme"
	KeyMarkdownStyle    = "marknote_markdown_style"
	KeySplitPosition    = "marknote_split_position"
	KeySidebarCollapsed = "marknote_sidebar_collapsed"
)
