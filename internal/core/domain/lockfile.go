package domain

// LockfileVersion is the current lockfile format version.
const LockfileVersion = 1

// Lockfile pins every resolved package per platform.
// It provides a reproducible snapshot of the environment across architectures.
type Lockfile struct {
	// Version is the lockfile format version.
	Version int `json:"version"`

	// Packages maps request specs ("name@version") to their per-platform resolution.
	Packages map[string]map[Platform]PackageRef `json:"packages"`
}

// NewLockfile returns an empty lockfile with the current version.
func NewLockfile() *Lockfile {
	return &Lockfile{
		Version:  LockfileVersion,
		Packages: make(map[string]map[Platform]PackageRef),
	}
}

// Pin records the resolution of req on platform.
func (l *Lockfile) Pin(req PackageRequest, platform Platform, ref PackageRef) {
	if l.Packages == nil {
		l.Packages = make(map[string]map[Platform]PackageRef)
	}
	key := req.Spec()
	if l.Packages[key] == nil {
		l.Packages[key] = make(map[Platform]PackageRef)
	}
	l.Packages[key][platform] = ref
}

// Lookup returns the pinned resolution of req on platform.
func (l *Lockfile) Lookup(req PackageRequest, platform Platform) (PackageRef, bool) {
	if l == nil {
		return PackageRef{}, false
	}
	systems, ok := l.Packages[req.Spec()]
	if !ok {
		return PackageRef{}, false
	}
	ref, ok := systems[platform]
	return ref, ok
}

// PinDescriptors records every package of the given descriptors.
// requests must be the de-duplicated request list the descriptors were resolved from.
func (l *Lockfile) PinDescriptors(requests []PackageRequest, descriptors map[Platform]*EnvironmentDescriptor) {
	for platform, desc := range descriptors {
		byName := make(map[string]PackageRef, len(desc.Packages))
		for _, ref := range desc.Packages {
			byName[ref.QualifiedName()] = ref
		}
		for _, req := range requests {
			if ref, ok := byName[req.QualifiedName()]; ok {
				l.Pin(req, platform, ref)
			}
		}
	}
}
