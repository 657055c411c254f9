package constants

// Post types
const (
	PostTypeNews    = "news"
	PostTypeArticle = "article"
)

// Built-in user roles
const (
	RoleCommon  = "common"
	RoleAuthors = "authors"
)

// Post capabilities granted through roles
const (
	CapabilityPostView   = "post.view"
	CapabilityPostCreate = "post.create"
	CapabilityPostChange = "post.change"
	CapabilityPostDelete = "post.delete"
)

// User status
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Captcha scenes
const (
	CaptchaSceneSignup = "signup"
	CaptchaSceneLogin  = "login"
)

// Social login providers
const (
	OAuthProviderYandex = "yandex"
)

// Queue names
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// Async task types
const (
	TaskNotifyNewPost = "notify:new_post"
	TaskWeeklyDigest  = "digest:weekly"
)

// Email kinds used in metrics labels
const (
	EmailKindNewPost = "new_post"
	EmailKindDigest  = "digest"
)

// Misc limits
const (
	PostTitleMaxLength    = 200
	CategoryNameMaxLength = 100
	NotifyExcerptLength   = 200
	DefaultNewsPageSize   = 10
	DefaultDigestWindow   = 7
)
