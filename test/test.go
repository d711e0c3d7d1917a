package test

import (
	"bytes"
	"os"
	"regexp"
	"runtime"
	"testing"

	"github.com/goccy/go-json"
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func Test(t *testing.T) {
	RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, getCallerPackage())
}

func LoadFixture(relativePath string) ([]byte, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return os.ReadFile(wd + string(os.PathSeparator) + relativePath)
}

// Decode unmarshals a JSON document the same way the data source client does, keeping numbers
// in their textual form
func Decode(body []byte) (any, error) {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// MustDecode decodes a JSON literal and fails the running test on error
func MustDecode(body string) any {
	payload, err := Decode([]byte(body))
	Expect(err).ToNot(HaveOccurred())
	return payload
}

// LoadPayload reads and decodes a fixture
func LoadPayload(relativePath string) any {
	body, err := LoadFixture(relativePath)
	Expect(err).ToNot(HaveOccurred())
	payload, err := Decode(body)
	Expect(err).ToNot(HaveOccurred())
	return payload
}

func getCallerPackage() string {
	var callerPackage string
	if matches := callerPackageRegexp.FindStringSubmatch(getFrameName(3)); matches != nil {
		callerPackage = matches[1]
	}
	return callerPackage
}

func getFrameName(frame int) string {
	var frameName string
	if pc, _, _, ok := runtime.Caller(frame); ok {
		frameName = runtime.FuncForPC(pc).Name()
	}
	return frameName
}

var callerPackageRegexp = regexp.MustCompile("^(.+?)(?:_test)[^/]+$")
