// Package config loads jsrl settings from ~/.config/jsrl/config.toml.
//
// A missing file is not an error; every field has a default. Values from the
// file are trimmed, then JSRL_BASE_URL, JSRL_LOG_FILE, JSRL_LOG_LEVEL and
// JSRL_REQUEST_TIMEOUT override them.
//
// Example config.toml:
//
//	base_url = "https://jetsetradio.live"
//	log_level = "debug"
//	request_timeout = "10s"
//
//	[[stations]]
//	name = "classic"
//	tracklist_url = "https://jetsetradio.live/radio/stations/classic/~list.js"
//
//	[chat_elements]
//	record = "message"
//
// When no stations are listed the built-in station set under base_url is used.
package config
