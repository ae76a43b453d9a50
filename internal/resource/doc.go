// Package resource maps typed objects onto statements in a shared graph.
//
// A Mapper owns the declared classes, the TypeRegistry used to rebuild
// children from their recorded rdf:type, the named repositories, and the
// blank-node generator. Classes are declared once; lookups afterwards are
// read-only.
//
// A Resource is one subject (an IRI or a blank node) plus a view: the
// statements about that subject copied out of its repository. Reads and
// writes go through the view. Reload refreshes it, Persist replaces the
// repository's statements about the subject with it, and Destroy empties
// both. SetSubject moves a blank-node resource to an IRI, rewriting every
// statement in the view that mentions the old node.
//
// Repository resolution:
// A class either names a repository in the Mapper's registry or persists
// to its parent. Parent-backed resources walk up the parent chain to the
// first ancestor with a direct repository, or to the topmost resource when
// none has one. The walk is bounded and a cycle means no repository; Reload
// then reports false and Persist fails with ErrCodeNoRepository.
//
// A Term is the accessor for one (subject, property) slot. Set replaces the
// slot, Push and Delete edit it, and Build creates and links a child node.
// Linked objects materialize by recorded type, then the property class,
// then the default class; an object whose recorded class conflicts with the
// property class is left out of the slot's values.
//
// A List is a resource whose subject heads an rdf:first/rdf:rest chain
// ending in rdf:nil. Append, Set and Shift keep the chain well formed, and
// elements materialize by recorded type without filtering.
//
// Errors carry an ErrorCode; IsArgumentError, IsStateError, IsTypeError
// and IsIndexError classify them.
package resource
