package swagger

import _ "embed"

// OpenAPI is the embedded OpenAPI 3 document for the route table.
//
//go:embed openapi.yaml
var OpenAPI []byte
