// Package form provides a select element whose options come from a
// repository.
//
// Proxy loads records through a Lister (see finder.RepositoryLister) and
// turns them into ValueOption values. Labels come from a label generator, a
// property or method of the record, or the record's String method.
//
//	proxy, err := form.NewProxy(form.ProxyConfig[*Role]{
//		Lister:     finder.NewRepositoryLister[*Role](roles),
//		Identifier: func(r *Role) any { return r.ID },
//		Property:   "name",
//	})
//	roleSelect := form.NewObjectSelect[*Role]("role", proxy)
//	_ = roleSelect.SetOption(form.OptionDisplayEmptyItem, true)
//
// ObjectSelect forwards proxy options to the proxy, caches non empty option
// lists and binds records, or lists of records in multiple mode, as their
// identifiers.
package form
