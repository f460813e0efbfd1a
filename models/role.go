package models

// Capability is a named permission granted by a role.
type Capability string

const (
	CapBrowse      Capability = "browse"
	CapDownload    Capability = "download"
	CapUpload      Capability = "upload"
	CapEditOwn     Capability = "edit-own"
	CapDeleteOwn   Capability = "delete-own"
	CapEditAny     Capability = "edit-any"
	CapDeleteAny   Capability = "delete-any"
	CapManageUsers Capability = "manage-users"
)

// roleCapabilities is additive: author extends reader, admin extends author.
var roleCapabilities = map[string]map[Capability]bool{
	RoleReader: capSet(CapBrowse, CapDownload),
	RoleAuthor: capSet(CapBrowse, CapDownload, CapUpload, CapEditOwn, CapDeleteOwn),
	RoleAdmin: capSet(CapBrowse, CapDownload, CapUpload, CapEditOwn, CapDeleteOwn,
		CapEditAny, CapDeleteAny, CapManageUsers),
}

func capSet(caps ...Capability) map[Capability]bool {
	set := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		set[c] = true
	}
	return set
}

// Can reports whether role grants cap. Unknown roles and unknown
// capabilities grant nothing.
func Can(role string, cap Capability) bool {
	return roleCapabilities[role][cap]
}
