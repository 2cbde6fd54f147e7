package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe     = "\uf0ac" // web
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGithub    = "\uf09b" // github
	IconGo        = "\ue627" // go gopher
	IconArrow     = "\uf061" // arrow right
	IconRocket    = "\uf135" // rocket

	IconCheck    = "\uf00c" // check
	IconX        = "\uf00d" // x
	IconWarning  = "\uf071" // warning
	IconInfo     = "\uf05a" // info
	IconPackage  = "\uf187" // archive/package
	IconDownload = "\uf019" // download
	IconClock    = "\uf017" // clock
	IconDatabase = "\uf1c0" // database
	IconOffline  = "\uf127" // chain-broken
)
