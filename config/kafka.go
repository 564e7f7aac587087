package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	PostDeleted    string `mapstructure:"postDeleted" yaml:"postDeleted"`       // 帖子删除事件主题
	CommentDeleted string `mapstructure:"commentDeleted" yaml:"commentDeleted"` // 评论删除事件主题
}
