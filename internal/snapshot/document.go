// Package snapshot reads the JSON document a host compiler writes to hand a
// bound compilation over to the generator.
package snapshot

// FormatVersion is the document version this package reads.
const FormatVersion = 1

// Document is the top-level JSON object.
type Document struct {
	Version  int         `json:"version"`
	Name     string      `json:"name"`
	Assembly *ConfigDoc  `json:"assembly,omitempty"`
	Symbols  []SymbolDoc `json:"symbols,omitempty"`
	Files    []FileDoc   `json:"files"`
}

// SymbolDoc describes a metadata type the sources refer to.
type SymbolDoc struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Namespace   string      `json:"namespace,omitempty"`
	Container   string      `json:"container,omitempty"`
	Kind        string      `json:"kind,omitempty"`
	Access      string      `json:"access,omitempty"`
	Arity       int         `json:"arity,omitempty"`
	Sealed      bool        `json:"sealed,omitempty"`
	Static      bool        `json:"static,omitempty"`
	Abstract    bool        `json:"abstract,omitempty"`
	StackOnly   bool        `json:"stack_only,omitempty"`
	DefaultCtor bool        `json:"default_ctor,omitempty"`
	Base        *TypeDoc    `json:"base,omitempty"`
	Interfaces  []TypeDoc   `json:"interfaces,omitempty"`
	Members     []MemberDoc `json:"members,omitempty"`
}

type MemberDoc struct {
	Kind       string    `json:"kind"` // type, method, field, property, event
	Name       string    `json:"name"`
	Arity      int       `json:"arity,omitempty"`
	TypeParams []string  `json:"type_params,omitempty"`
	Params     []TypeDoc `json:"params,omitempty"`
	// ByRef marks ref/out/in parameters, parallel to Params.
	ByRef  []bool `json:"by_ref,omitempty"`
	Access string `json:"access,omitempty"`
	Static bool   `json:"static,omitempty"`
}

// TypeDoc is a type reference. Exactly one of the shape fields is set.
type TypeDoc struct {
	// Param names a type parameter; Owner is the declaration id and defaults
	// to the nearest enclosing declaration that declares the name.
	Param string `json:"param,omitempty"`
	Owner string `json:"owner,omitempty"`
	// Named is a symbol id or a keyword such as "int".
	Named   string    `json:"named,omitempty"`
	Args    []TypeDoc `json:"args,omitempty"`
	Unbound bool      `json:"unbound,omitempty"`

	Array    *TypeDoc    `json:"array,omitempty"`
	Rank     int         `json:"rank,omitempty"`
	Pointer  *TypeDoc    `json:"pointer,omitempty"`
	Nullable *TypeDoc    `json:"nullable,omitempty"`
	Tuple    []TypeDoc   `json:"tuple,omitempty"`
	FuncPtr  *FuncPtrDoc `json:"funcptr,omitempty"`
	Void     bool        `json:"void,omitempty"`
}

type FuncPtrDoc struct {
	Result TypeDoc   `json:"result"`
	Params []TypeDoc `json:"params,omitempty"`
}

// SpanDoc is a byte range in the enclosing file, end exclusive.
type SpanDoc struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type FileDoc struct {
	Path    string    `json:"path"`
	Content string    `json:"content,omitempty"`
	Decls   []DeclDoc `json:"decls"`
}

type ConfigDoc struct {
	TargetNamespace  *string  `json:"target_namespace,omitempty"`
	ApplyNew         *bool    `json:"apply_new,omitempty"`
	TypeConvention   string   `json:"type_convention,omitempty"`
	MethodConvention string   `json:"method_convention,omitempty"`
	Span             *SpanDoc `json:"span,omitempty"`
}

type DefaultDoc struct {
	Type     TypeDoc  `json:"type"`
	ApplyNew *bool    `json:"apply_new,omitempty"`
	Span     *SpanDoc `json:"span,omitempty"`
}

type TypeParamDoc struct {
	Name     string      `json:"name"`
	Variance string      `json:"variance,omitempty"`
	Default  *DefaultDoc `json:"default,omitempty"`
	Span     SpanDoc     `json:"span"`
}

type ParamDoc struct {
	Name     string  `json:"name"`
	Type     TypeDoc `json:"type"`
	Modifier string  `json:"modifier,omitempty"`
	Default  string  `json:"default,omitempty"`
}

type ConstraintItemDoc struct {
	Kind string   `json:"kind,omitempty"` // type, class, struct, unmanaged, notnull, new
	Type *TypeDoc `json:"type,omitempty"`
}

type ConstraintDoc struct {
	Param string              `json:"param"`
	Items []ConstraintItemDoc `json:"items"`
	Span  *SpanDoc            `json:"span,omitempty"`
}

// SegmentDoc is either verbatim body text or a type reference.
type SegmentDoc struct {
	Text string   `json:"text,omitempty"`
	Type *TypeDoc `json:"type,omitempty"`
}

type FragmentDoc struct {
	Span        SpanDoc         `json:"span"`
	Partial     bool            `json:"partial,omitempty"`
	Bases       []TypeDoc       `json:"bases,omitempty"`
	Constraints []ConstraintDoc `json:"constraints,omitempty"`
	Members     []DeclDoc       `json:"members,omitempty"`
	Config      *ConfigDoc      `json:"config,omitempty"`
}

type DeclDoc struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	TypeKind   string         `json:"type_kind,omitempty"`
	Name       string         `json:"name"`
	Access     string         `json:"access,omitempty"`
	Modifiers  []string       `json:"modifiers,omitempty"`
	Namespace  string         `json:"namespace,omitempty"`
	TypeParams []TypeParamDoc `json:"type_params,omitempty"`
	Params     []ParamDoc     `json:"params,omitempty"`
	Result     *TypeDoc       `json:"result,omitempty"`

	Fragments   []FragmentDoc   `json:"fragments,omitempty"`
	Constraints []ConstraintDoc `json:"constraints,omitempty"`
	Body        []SegmentDoc    `json:"body,omitempty"`
	// HasBody distinguishes an empty body from an abstract member.
	HasBody           bool         `json:"has_body,omitempty"`
	Initializer       []SegmentDoc `json:"initializer,omitempty"`
	Locals            []DeclDoc    `json:"locals,omitempty"`
	Config            *ConfigDoc   `json:"config,omitempty"`
	ExplicitInterface *TypeDoc     `json:"explicit_interface,omitempty"`
	Marker            string       `json:"marker,omitempty"`

	Span     SpanDoc `json:"span"`
	NameSpan SpanDoc `json:"name_span"`
}
