// Package hcl provides the HCL implementation of config.Loader.
//
// A configuration file looks like
//
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
//	output        = "yaml"
//	configuration = "Release"
//	cache {
//	  size = 16
//	}
//	roots = {
//	  SOURCE_ROOT = "${env.HOME}/src/App"
//	  SDKROOT     = "/Applications/Xcode.app/Contents/Developer/Platforms/iPhoneOS.platform/Developer/SDKs/iPhoneOS.sdk"
//	}
//	env = {
//	  PROJECT_NAME = "App"
//	}
//
// Expressions may read process environment variables through the env object.
package hcl
