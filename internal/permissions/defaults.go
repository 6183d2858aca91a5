package permissions

// Descriptor names registered at startup.
const (
	ItemsManage   = "items-manage"
	ItemsRead     = "items-read"
	ArchiveManage = "archive-manage"
	ArchiveRead   = "archive-read"
)

// Permission domains.
const (
	DomainItems   = "items"
	DomainArchive = "archive"
)

// RegisterDefaults registers the manage and read descriptors of the items
// and archive domains.
func RegisterDefaults(r *Registry) {
	r.Register(ItemsManage, "Manage ingest items", Capability{Domain: DomainItems, Access: AccessWrite})
	r.Register(ItemsRead, "Read ingest items", Capability{Domain: DomainItems, Access: AccessRead})
	r.Register(ArchiveManage, "Manage archive", Capability{Domain: DomainArchive, Access: AccessWrite})
	r.Register(ArchiveRead, "Read archive", Capability{Domain: DomainArchive, Access: AccessRead})
}
