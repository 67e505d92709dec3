package singleton

// New returns a holder using the requested algorithm.
// Unknown variants fall back to VariantOnce.
// @group Constructors
//
// Example: select variant explicitly
//
//	holder := singleton.New(singleton.VariantChecked, func() (*Catalog, error) {
//		return &Catalog{}, nil
//	})
//	fmt.Println(holder.Variant()) // checked
func New[T any](variant Variant, ctor Constructor[T], opts ...Option) Holder[T] {
	switch variant {
	case VariantChecked:
		return NewChecked(ctor, opts...)
	default:
		return NewOnce(ctor, opts...)
	}
}

// Must is a convenience accessor for package-level holders, mirroring the
// fatal propagation of a failed initializer.
// @group Constructors
//
// Example: package-level accessor
//
//	var catalog = singleton.NewOnce(loadCatalog)
//
//	func Catalog() *Catalog { return singleton.Must(catalog) }
func Must[T any](h Holder[T]) T {
	return h.MustGet()
}
