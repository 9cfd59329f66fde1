/*
Package ports defines the driven ports (interfaces) for the walkthrough engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to run against wall-clock or virtual time and to read module
definitions from any source.

# Key Interfaces

  - Scheduler: Arms the single autoplay timer of a controller.
  - ModuleLoader: Retrieves raw module definitions (e.g., from a directory or memory).
*/
package ports
