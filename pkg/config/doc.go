// Package config loads typed configuration structs from environment variables
// using github.com/caarlos0/env struct tags. A .env file in the working
// directory is read once via github.com/joho/godotenv before the first parse.
//
// Every package in this module declares its own Config struct next to the code
// that consumes it (pg.Config, tenantdb.Config, httpserver.Config, ...) and the
// server binary loads them one by one:
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
// Parsed values are cached per type and prefix.
package config
