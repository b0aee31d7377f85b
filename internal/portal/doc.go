// Package portal serves the node's provisioning interface: a small HTTP
// server on the local network that renders the registered parameters as
// a form and applies submissions through the store's batched sync, so a
// complete provisioning session costs one persistence write.
//
// A JSON API mirrors the form for headless provisioning. Secret
// parameters are rendered as password fields and omitted from JSON
// responses.
package portal
