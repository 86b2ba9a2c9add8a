// SPDX-License-Identifier: EPL-2.0

// Package config loads engine settings with viper and sets up slog.
//
//	settings, err := config.Load("audmix.yaml")
//	if err != nil {
//	    return err
//	}
//	logFile, err := config.ConfigureDefaultLogger(settings.LogLevel, settings.LogFile, slog.HandlerOptions{})
//	if logFile != nil {
//	    defer logFile.Close()
//	}
//
// Every key can be overridden from the environment, e.g. AUDMIX_SAMPLERATE.
package config
