package soap

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"
)

const (
	WssNsWSSE           string = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	WssNsWSU            string = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"
	WssEncodeTypeBase64 string = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-soap-message-security-1.0#Base64Binary"
	WssValueTypeX509v3  string = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-x509-token-profile-1.0#X509v3"
	NsXMLDSig           string = "http://www.w3.org/2000/09/xmldsig#"
	NsXMLExcC14N        string = "http://www.w3.org/2001/10/xml-exc-c14n#"

	algRSASHA256 = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	algSHA256    = "http://www.w3.org/2001/04/xmlenc#sha256"
)

type binarySecurityToken struct {
	XMLName      xml.Name `xml:"wsse:BinarySecurityToken"`
	XMLNS        string   `xml:"xmlns:wsu,attr"`
	WsuID        string   `xml:"wsu:Id,attr"`
	EncodingType string   `xml:"EncodingType,attr"`
	ValueType    string   `xml:"ValueType,attr"`
	Value        string   `xml:",chardata"`
}

type inclusiveNamespaces struct {
	XMLName    xml.Name `xml:"http://www.w3.org/2001/10/xml-exc-c14n# InclusiveNamespaces"`
	PrefixList string   `xml:"PrefixList,attr"`
}

type algorithm struct {
	Algorithm string `xml:"Algorithm,attr"`
}

type canonicalizationMethod struct {
	XMLName             xml.Name `xml:"CanonicalizationMethod"`
	Algorithm           string   `xml:"Algorithm,attr"`
	InclusiveNamespaces inclusiveNamespaces
}

type signatureReference struct {
	XMLName      xml.Name  `xml:"Reference"`
	URI          string    `xml:"URI,attr"`
	Transform    algorithm `xml:"Transforms>Transform"`
	DigestMethod algorithm `xml:"DigestMethod"`
	DigestValue  string    `xml:"DigestValue"`
}

type signedInfo struct {
	XMLName                xml.Name `xml:"SignedInfo"`
	XMLNS                  string   `xml:"xmlns,attr"`
	CanonicalizationMethod canonicalizationMethod
	SignatureMethod        algorithm `xml:"SignatureMethod"`
	Reference              signatureReference
}

type strReference struct {
	XMLName   xml.Name `xml:"wsse:Reference"`
	ValueType string   `xml:"ValueType,attr"`
	URI       string   `xml:"URI,attr"`
}

type securityTokenReference struct {
	XMLName   xml.Name `xml:"wsse:SecurityTokenReference"`
	XMLNS     string   `xml:"xmlns:wsu,attr"`
	StrID     string   `xml:"wsu:Id,attr"`
	Reference strReference
}

type keyInfo struct {
	XMLName                xml.Name `xml:"KeyInfo"`
	KeyInfoID              string   `xml:"Id,attr"`
	SecurityTokenReference securityTokenReference
}

type signature struct {
	XMLName        xml.Name `xml:"Signature"`
	XMLNS          string   `xml:"xmlns,attr"`
	SignedInfo     signedInfo
	SignatureValue string `xml:"SignatureValue"`
	KeyInfo        keyInfo
}

type security struct {
	XMLName            xml.Name `xml:"wsse:Security"`
	XMLNS              string   `xml:"xmlns:wsse,attr"`
	SOAPMustUnderstand int      `xml:"SOAP-ENV:mustUnderstand,attr"`

	BinarySecurityToken binarySecurityToken
	Signature           signature
}

type wssSigner struct {
	key     *rsa.PrivateKey
	certB64 string
}

// sign adds a wsu:Id to the body, signs its exclusive canonical form and
// places the wsse:Security block in the envelope header.
func (s *wssSigner) sign(doc *etree.Document) error {
	env := doc.Root()
	if env == nil {
		return fmt.Errorf("envelope has no root")
	}
	header := env.SelectElement(soapEnvPrefix + ":Header")
	body := env.SelectElement(soapEnvPrefix + ":Body")
	if header == nil || body == nil {
		return fmt.Errorf("envelope has no header or body")
	}

	bodyID := makeSecureID("B-")
	body.CreateAttr("xmlns:wsu", WssNsWSU)
	body.CreateAttr("wsu:Id", bodyID)

	frag := etree.NewDocument()
	cp := body.Copy()
	cp.CreateAttr("xmlns:"+soapEnvPrefix, XmlNsSoapEnv)
	frag.SetRoot(cp)
	buf, err := frag.WriteToBytes()
	if err != nil {
		return err
	}
	cout, err := canonicalize(buf)
	if err != nil {
		return fmt.Errorf("canonicalize body: %w", err)
	}
	bodyDigest := sha256.Sum256(cout)

	si := signedInfo{
		XMLNS: NsXMLDSig,
		CanonicalizationMethod: canonicalizationMethod{
			Algorithm:           NsXMLExcC14N,
			InclusiveNamespaces: inclusiveNamespaces{PrefixList: soapEnvPrefix},
		},
		SignatureMethod: algorithm{Algorithm: algRSASHA256},
		Reference: signatureReference{
			URI:          "#" + bodyID,
			Transform:    algorithm{Algorithm: NsXMLExcC14N},
			DigestMethod: algorithm{Algorithm: algSHA256},
			DigestValue:  base64.StdEncoding.EncodeToString(bodyDigest[:]),
		},
	}
	if buf, err = xml.Marshal(si); err != nil {
		return err
	}
	if cout, err = canonicalize(buf); err != nil {
		return fmt.Errorf("canonicalize signed info: %w", err)
	}
	siDigest := sha256.Sum256(cout)
	sigValue, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, siDigest[:])
	if err != nil {
		return err
	}

	certID := makeSecureID("X509CERT-")
	sec := security{
		XMLNS:              WssNsWSSE,
		SOAPMustUnderstand: 1,
		BinarySecurityToken: binarySecurityToken{
			XMLNS:        WssNsWSU,
			WsuID:        certID,
			EncodingType: WssEncodeTypeBase64,
			ValueType:    WssValueTypeX509v3,
			Value:        s.certB64,
		},
		Signature: signature{
			XMLNS:          NsXMLDSig,
			SignedInfo:     si,
			SignatureValue: base64.StdEncoding.EncodeToString(sigValue),
			KeyInfo: keyInfo{
				KeyInfoID: makeSecureID("KINF-"),
				SecurityTokenReference: securityTokenReference{
					XMLNS: WssNsWSU,
					StrID: makeSecureID("SECTOK-"),
					Reference: strReference{
						ValueType: WssValueTypeX509v3,
						URI:       "#" + certID,
					},
				},
			},
		},
	}
	if buf, err = xml.Marshal(sec); err != nil {
		return err
	}
	secDoc := etree.NewDocument()
	if err := secDoc.ReadFromBytes(buf); err != nil {
		return err
	}
	header.AddChild(secDoc.Root())
	return nil
}

func canonicalize(b []byte) ([]byte, error) {
	return c14n.Canonicalize(xml.NewDecoder(bytes.NewReader(b)))
}

func makeSecureID(prefix string) string {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf, uint64(time.Now().UnixNano()))
	_, _ = io.ReadFull(rand.Reader, buf[8:])
	return prefix + hex.EncodeToString(buf)
}
