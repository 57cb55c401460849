package specerr

// Convenience constructors for common error patterns

// Config errors

func UnknownTarget(name, configPath string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "no such build target").
		WithContext("target", name).
		WithContext("config", configPath)
}

func MissingGroup(name string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "referenced group does not exist").
		WithContext("group", name)
}

func MalformedFilesEntry(detail string) *BuildError {
	return New(CategoryConfig, SeverityFatal,
		"'files' entry is not a fragment path, list or level map").
		WithContext("entry", detail)
}

// Fragment errors

func MissingTrailingNewlines(fragment string) *BuildError {
	return New(CategoryFragment, SeverityFatal,
		"fragment must end with two newline characters so concatenation works correctly").
		WithContext("fragment", fragment)
}

func FragmentReadFailed(fragment string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "failed to read fragment").
		WithContext("fragment", fragment)
}

// Heading structure errors

func InvalidDescent(fragment string, line int, style string, prevStyle string) *BuildError {
	return New(CategoryHeading, SeverityFatal,
		"title style descends more than one level below the previous title").
		WithContext("fragment", fragment).
		WithContext("line", line).
		WithContext("style", style).
		WithContext("previous_style", prevStyle)
}

func StyleTableExhausted(fragment string, line int) *BuildError {
	return New(CategoryHeading, SeverityFatal,
		"sub-title level too deep to adjust; add another entry to title_styles").
		WithContext("fragment", fragment).
		WithContext("line", line)
}

func AboveTopLevel(fragment string, line int) *BuildError {
	return New(CategoryHeading, SeverityFatal,
		"title adjusts above the top of the style table").
		WithContext("fragment", fragment).
		WithContext("line", line)
}

func UnknownTitleStyle(fragment string, line int, style string) *BuildError {
	return New(CategoryHeading, SeverityFatal, "title style not present in style table").
		WithContext("fragment", fragment).
		WithContext("line", line).
		WithContext("style", style)
}

// External collaborator errors

func ExternalStepFailed(step string, diagnostics string, cause error) *BuildError {
	return Wrap(cause, CategoryExternal, SeverityFatal, "external step failed").
		WithContext("step", step).
		WithContext("diagnostics", diagnostics)
}
