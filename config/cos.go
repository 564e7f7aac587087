package config

// COSConfig 腾讯云 COS 配置，帖子图片的物理文件存放在这里。
type COSConfig struct {
	SecretID   string `mapstructure:"secret_id" json:"secret_id" yaml:"secret_id"`
	SecretKey  string `mapstructure:"secret_key" json:"secret_key" yaml:"secret_key"`
	BucketName string `mapstructure:"bucket_name" json:"bucket_name" yaml:"bucket_name"`
	AppID      string `mapstructure:"app_id" json:"app_id" yaml:"app_id"`
	Region     string `mapstructure:"region" json:"region" yaml:"region"`
	// BaseURL 形如 https://<bucket>-<appid>.cos.<region>.myqcloud.com，留空则按上面的字段拼接
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
}
