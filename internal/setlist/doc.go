// Package setlist composes concrete setlists from templates and a song pool.
//
// # Generation
//
// [Composer.Generate] walks a [models.SetlistTemplate] section by section, filters the pool with a
// [Matcher], draws a random selection per section and assigns leaders by role. The random source is
// injected so generation is reproducible under test. A pool that cannot fill a section yields a
// shorter section; that is not an error.
//
// # Transformations
//
// [AdjustKeys] and [OptimizeKeyFlow] take a setlist and return a new one with a note appended. The
// input is never modified.
//
// # Presentation
//
// [Summarize] projects a setlist into per-section song lists and leader names for display.
package setlist
