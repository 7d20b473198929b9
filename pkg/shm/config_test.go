package shm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestVerifyConfig() {
	config := DefaultConfig()
	s.Require().Nil(VerifyConfig(config))

	config.Size = 0
	s.Require().True(errors.Is(VerifyConfig(config), ErrInvalidConfig))
	config.Size = -1
	s.Require().NotNil(VerifyConfig(config))
	config.Size = 1 << 20

	config.Create = false
	s.Require().NotNil(VerifyConfig(config), "anonymous regions cannot be opened")
	config.Name = "orders"
	s.Require().Nil(VerifyConfig(config))
	config.Size = 0
	s.Require().Nil(VerifyConfig(config), "zero size maps the whole existing region")

	config.Name = "a/b"
	s.Require().NotNil(VerifyConfig(config))
	config.Name = strings.Repeat("x", 300)
	s.Require().NotNil(VerifyConfig(config))
	config.Name = "/orders"
	s.Require().Nil(VerifyConfig(config))

	config.Access = Access(7)
	s.Require().NotNil(VerifyConfig(config))
}

func (s *ConfigTestSuite) TestParseAccess() {
	for in, want := range map[string]Access{
		"":           ReadWrite,
		"rw":         ReadWrite,
		"Read-Write": ReadWrite,
		"ro":         ReadOnly,
		" read-only": ReadOnly,
	} {
		got, err := ParseAccess(in)
		s.Require().Nil(err, in)
		s.Require().Equal(want, got, in)
	}
	_, err := ParseAccess("exec")
	s.Require().True(errors.Is(err, ErrInvalidConfig))
	s.Require().Equal("read-only", ReadOnly.String())
	s.Require().Equal("Access(9)", Access(9).String())
}
