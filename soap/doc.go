// Package soap is a client for the SPIRE export licensing SOAP services.
//
// A Client is bound to one remote operation. It builds a request envelope,
// posts it with HTTP basic auth, checks the reply for a SOAP fault and for a
// domain error marker, and hands the envelope to a Parser:
//
//	client := soap.NewClient[string](soap.NewReferenceParser("SAR_REF"), cfg,
//		soap.RequestConfig{Namespace: "SAR", RequestChildName: "createSar"})
//	req := client.NewRequest()
//	_ = req.AddChild("SITE_REF", "SITE1")
//	ref, err := client.SendRequest(req)
//
// Every error returned by a Client is a *ClientError; use errors.Is with
// ErrTransport, ErrEmptyResponse, ErrFault, ErrDomain, ErrBuild or ErrParse
// to tell them apart.
package soap
