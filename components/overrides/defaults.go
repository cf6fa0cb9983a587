package overrides

const (
	// CategoryHostOverrides holds per-squad overrides of host settings.
	CategoryHostOverrides = "host_overrides"
	// CategorySubscriptionSettings holds per-squad overrides of subscription settings.
	CategorySubscriptionSettings = "subscription_settings"
)

var defaultCategoryDefinitions = []CategoryDefinition{
	{
		Code:        CategoryHostOverrides,
		Name:        "Host overrides",
		Description: "Host settings applied to every host served to the squad",
		Fields: []FieldSpec{
			{Key: "remark", Kind: KindString, Schema: map[string]any{"type": "string", "minLength": 1, "maxLength": 40}},
			{Key: "address", Kind: KindString, Schema: map[string]any{"type": "string", "minLength": 1, "maxLength": 253}},
			{Key: "port", Kind: KindNumber, Schema: map[string]any{"type": "integer", "minimum": 1, "maximum": 65535}},
			{Key: "sni", Kind: KindString, Schema: map[string]any{"type": "string", "maxLength": 253}},
			{Key: "host", Kind: KindString, Schema: map[string]any{"type": "string", "maxLength": 253}},
			{Key: "path", Kind: KindString, Schema: map[string]any{"type": "string", "pattern": "^(/.*)?$"}},
			{Key: "alpn", Kind: KindString, Schema: map[string]any{"type": "string", "enum": []string{"", "h2", "http/1.1", "h2,http/1.1", "h3"}}},
			{Key: "fingerprint", Kind: KindString, Schema: map[string]any{"type": "string", "enum": []string{"", "chrome", "firefox", "safari", "ios", "android", "edge", "randomized"}}},
			{Key: "allowInsecure", Kind: KindBoolean},
			{Key: "isHidden", Kind: KindBoolean},
			{Key: "isDisabled", Kind: KindBoolean},
			{Key: "serverDescription", Kind: KindMultiline, Schema: map[string]any{"type": "string"}},
		},
	},
	{
		Code:        CategorySubscriptionSettings,
		Name:        "Subscription settings",
		Description: "Subscription settings applied to users of the squad",
		Fields: []FieldSpec{
			{Key: "profileTitle", Kind: KindString, Schema: map[string]any{"type": "string", "minLength": 1, "maxLength": 64}},
			{Key: "supportLink", Kind: KindString, Schema: map[string]any{"type": "string", "pattern": "^(https?://|tg://).+"}},
			{Key: "profileUpdateInterval", Kind: KindNumber, Schema: map[string]any{"type": "integer", "minimum": 1, "maximum": 168}},
			{Key: "isProfileWebpageUrlEnabled", Kind: KindBoolean},
			{Key: "serveJsonAtBaseSubscription", Kind: KindBoolean},
			{Key: "addUsernameToBaseSubscription", Kind: KindBoolean},
			{Key: "isShowCustomRemarks", Kind: KindBoolean},
			{Key: "randomizeHosts", Kind: KindBoolean},
			{Key: "happAnnounce", Kind: KindMultiline, Schema: map[string]any{"type": "string"}},
			{Key: "happRouting", Kind: KindString, Schema: map[string]any{"type": "string", "pattern": "^(happ://routing/.*)?$"}},
		},
	},
}

var defaultResolvers = map[string]FieldResolver{
	CategoryHostOverrides: StaticResolver{
		"remark":            {Kind: KindString, LabelKey: "overrides.host.remark", HelpKey: "overrides.host.remark.help"},
		"address":           {Kind: KindString, LabelKey: "overrides.host.address"},
		"port":              {Kind: KindNumber, LabelKey: "overrides.host.port", Leading: ":"},
		"sni":               {Kind: KindString, LabelKey: "overrides.host.sni", HelpKey: "overrides.host.sni.help"},
		"host":              {Kind: KindString, LabelKey: "overrides.host.host"},
		"path":              {Kind: KindString, LabelKey: "overrides.host.path", Leading: "/"},
		"alpn":              {Kind: KindString, LabelKey: "overrides.host.alpn"},
		"fingerprint":       {Kind: KindString, LabelKey: "overrides.host.fingerprint"},
		"allowInsecure":     {Kind: KindBoolean, LabelKey: "overrides.host.allow_insecure", HelpKey: "overrides.host.allow_insecure.help"},
		"isHidden":          {Kind: KindBoolean, LabelKey: "overrides.host.is_hidden"},
		"isDisabled":        {Kind: KindBoolean, LabelKey: "overrides.host.is_disabled"},
		"serverDescription": {Kind: KindMultiline, LabelKey: "overrides.host.server_description", HelpKey: "overrides.host.server_description.help"},
	},
	CategorySubscriptionSettings: StaticResolver{
		"profileTitle":                  {Kind: KindString, LabelKey: "overrides.subscription.profile_title"},
		"supportLink":                   {Kind: KindString, LabelKey: "overrides.subscription.support_link"},
		"profileUpdateInterval":         {Kind: KindNumber, LabelKey: "overrides.subscription.profile_update_interval", Trailing: "h"},
		"isProfileWebpageUrlEnabled":    {Kind: KindBoolean, LabelKey: "overrides.subscription.profile_webpage_url"},
		"serveJsonAtBaseSubscription":   {Kind: KindBoolean, LabelKey: "overrides.subscription.serve_json"},
		"addUsernameToBaseSubscription": {Kind: KindBoolean, LabelKey: "overrides.subscription.add_username"},
		"isShowCustomRemarks":           {Kind: KindBoolean, LabelKey: "overrides.subscription.custom_remarks", HelpKey: "overrides.subscription.custom_remarks.help"},
		"randomizeHosts":                {Kind: KindBoolean, LabelKey: "overrides.subscription.randomize_hosts"},
		"happAnnounce":                  {Kind: KindMultiline, LabelKey: "overrides.subscription.happ_announce", HelpKey: "overrides.subscription.happ_announce.help"},
		"happRouting":                   {Kind: KindString, LabelKey: "overrides.subscription.happ_routing"},
	},
}

// DefaultCategoryDefinitions exposes the built-in categories.
func DefaultCategoryDefinitions() []CategoryDefinition {
	out := make([]CategoryDefinition, len(defaultCategoryDefinitions))
	copy(out, defaultCategoryDefinitions)
	return out
}

// HostOverridesResolver resolves host override fields.
func HostOverridesResolver() FieldResolver {
	return defaultResolvers[CategoryHostOverrides]
}

// SubscriptionSettingsResolver resolves subscription setting fields.
func SubscriptionSettingsResolver() FieldResolver {
	return defaultResolvers[CategorySubscriptionSettings]
}
