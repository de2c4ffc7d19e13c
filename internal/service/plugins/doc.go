// Package plugins decides which GameFeature plugins are enabled for the
// release being built.
//
// Every .uplugin descriptor under the GameFeatures root must be disabled by
// default and declare IntroVersion, HasSunsetVersion and, when sunsetting,
// SunsetVersion. A plugin is enabled when its range includes the target
// release; a descriptor that breaks these rules disables its plugin.
package plugins
