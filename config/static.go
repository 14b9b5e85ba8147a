package config

/**
* Config with fixed values, e.g. for tests or embedding the service into other processes.
 */
type StaticConfig struct {
	Port int

	OAuth2Path string
	GetPath    string
	CreatePath string
	UpdatePath string
	EmailPath  string
	TestPath   string

	Secret             string
	ExpectedAudience   string
	Instance           string
	TokenExpiryMinutes int64

	Sender         string
	SenderPass     string
	SmtpServer     string
	SmtpServerPort int

	Backend        string
	RecordsPath    string
	PublicKeysPath string
}

func (c StaticConfig) ServerPort() int                 { return c.Port }
func (c StaticConfig) OAuth2Endpoint() string          { return c.OAuth2Path }
func (c StaticConfig) GetEndpoint() string             { return c.GetPath }
func (c StaticConfig) CreateEndpoint() string          { return c.CreatePath }
func (c StaticConfig) UpdateEndpoint() string          { return c.UpdatePath }
func (c StaticConfig) EmailEndpoint() string           { return c.EmailPath }
func (c StaticConfig) TestEndpoint() string            { return c.TestPath }
func (c StaticConfig) SecretKey() string               { return c.Secret }
func (c StaticConfig) Audience() string                { return c.ExpectedAudience }
func (c StaticConfig) InstanceUrl() string             { return c.Instance }
func (c StaticConfig) AccessTokenExpiryMinutes() int64 { return c.TokenExpiryMinutes }
func (c StaticConfig) SenderEmail() string             { return c.Sender }
func (c StaticConfig) SenderPassword() string          { return c.SenderPass }
func (c StaticConfig) SmtpHost() string                { return c.SmtpServer }
func (c StaticConfig) SmtpPort() int                   { return c.SmtpServerPort }
func (c StaticConfig) StoreBackend() string            { return c.Backend }
func (c StaticConfig) RecordsDbPath() string           { return c.RecordsPath }
func (c StaticConfig) PublicKeysDbPath() string        { return c.PublicKeysPath }
