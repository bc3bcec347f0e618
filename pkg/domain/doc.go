/*
Package domain contains the core domain models of the sortviz step recorder.

It defines what a recorded sort looks like from the outside: the Step snapshot a front end
redraws, the append-only Timeline that orders those snapshots, and the Run that ties a
Timeline to the input it was produced from. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Step: One immutable snapshot (array, index markers, sorted indices, animation tag).
  - CountingFrame: The counting-sort payload carried by a Step (counter, visibility mask).
  - Timeline: The ordered, indexed sequence of Steps emitted by one engine run.
  - Run: A Timeline plus the original and sorted arrays and the algorithm that produced it.
*/
package domain
